package utils

import (
	"fmt"
	"strconv"
	"strings"
)

func ConverToint(str string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, fmt.Errorf("error al convertir %q a entero: %w", str, err)
	}
	return n, nil
}

func ConverToFloat32(str string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 32)
	if err != nil {
		return 0, fmt.Errorf("error al convertir %q a decimal: %w", str, err)
	}
	return float32(f), nil
}

func ConverToBool(str string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(str))
	if err != nil {
		return false, fmt.Errorf("error al convertir %q a booleano: %w", str, err)
	}
	return b, nil
}
