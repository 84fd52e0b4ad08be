// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Warnf logs a degraded-but-not-fatal condition to the terminal with masking.
// Remote-call failures that leave local state unchanged go through here.
func Warnf(format string, args ...any) {
	pterm.Warning.Println(Mask(fmt.Sprintf(format, args...)))
}
