package main

import "strings"

func deduceFormat(format, filePath string) string {
	if format == "" && strings.HasSuffix(filePath, ".bin") {
		return "bin"
	}
	if format == "" && strings.HasSuffix(filePath, ".tmx") {
		return "tmx"
	}
	return format
}
