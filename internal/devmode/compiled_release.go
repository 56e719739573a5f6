//go:build !smsdev

package devmode

const compiled = false
