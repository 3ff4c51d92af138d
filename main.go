package main

import (
	"fmt"
	"os"

	"modelexplorer/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// 自动加载.env文件，不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "警告: 无法加载.env文件: %v\n", err)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
