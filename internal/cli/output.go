package cli

import (
	"github.com/fatih/color"
)

// Status colors shared by the commands.
var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	headerColor  = color.New(color.FgWhite, color.Bold)
)
