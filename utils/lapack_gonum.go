//go:build !netlib
// +build !netlib

package utils

const Accelerated = false
