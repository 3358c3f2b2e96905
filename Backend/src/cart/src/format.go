package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// formatCents muestra centavos como dolares con separador de miles: 115000 -> "$1,150.00".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}
