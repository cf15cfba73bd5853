// Package engine は外部プロセスの分析エンジン（stdinにJSON、stdoutにJSON）を扱う。
// 参照実装は scripts/run_apriori.py。
package engine
