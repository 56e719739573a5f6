//go:build smsdev

package devmode

const compiled = true
