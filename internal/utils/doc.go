// Package utils provides platform helpers shared by the commands.
package utils
