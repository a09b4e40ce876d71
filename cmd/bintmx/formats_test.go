package main

import "testing"

func TestDeduceFormat(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{"", "levels/level1.bin", "bin"},
		{"", "maps/level1.tmx", "tmx"},
		{"tmx", "level1.xml", "tmx"},
		{"", "level1.dat", ""},
	}
	for _, tt := range tests {
		if got := deduceFormat(tt.format, tt.path); got != tt.want {
			t.Errorf("deduceFormat(%q, %q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name      string
		got, want string
	}{
		{"TMXNextToInput", tmxOutput("levels/level1.bin", ""), "levels/level1.tmx"},
		{"TMXIntoDir", tmxOutput("levels/level1.bin", "out"), "out/level1.tmx"},
		{"TMXExplicit", tmxOutput("levels/level1.bin", "out/map.tmx"), "out/map.tmx"},
		{"BinFromTMX", binOutput("out/level1.tmx", ""), "out/level1.bin"},
		{"BinExplicit", binOutput("out/level1.tmx", "x.bin"), "x.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
