package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// 命令行参数定义
var (
	configPath    = pflag.StringP("config", "c", "", "配置文件路径，为空时按默认位置查找")
	files         = pflag.StringArrayP("file", "f", nil, "简历文件路径，可重复；也可作为位置参数传入")
	format        = pflag.String("format", "", "声明文档格式 (pdf, docx, txt)，为空时按扩展名或内容判断")
	transcriptDir = pflag.String("transcript", "", "调试记录输出目录，为空时不输出")
	jsonOutput    = pflag.Bool("json", false, "以 JSON 输出完整抽取结果，默认输出摘要")
	workers       = pflag.IntP("workers", "w", 4, "并发处理的文件数")
	command       = pflag.String("cmd", "extract", "执行的命令: extract=抽取简历, report=只打印调试报告, sample-config=生成示例配置")
	samplePath    = pflag.StringP("output", "o", "config.yaml", "sample-config 命令的输出路径")
)

func main() {
	pflag.Parse()

	var err error
	switch *command {
	case "extract":
		err = handleExtractCommand(false)
	case "report":
		err = handleExtractCommand(true)
	case "sample-config":
		err = handleSampleConfigCommand(*samplePath)
	default:
		fmt.Fprintf(os.Stderr, "错误: 未知命令 '%s'。支持的命令: extract, report, sample-config\n", *command)
		pflag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
