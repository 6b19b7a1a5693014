//go:build darwin

package config

const defaultHotkeyKey = "Option+R"
