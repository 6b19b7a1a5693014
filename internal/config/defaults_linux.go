//go:build linux

package config

const defaultHotkeyKey = "KEY_F9"
