package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

func promptText(label, defaultValue string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	return strings.TrimSpace(value), err
}

func promptScore(label string) (float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			score, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			if err != nil {
				return errors.New("enter a number")
			}
			if score <= 0 || score > 10 {
				return errors.New("score must be above 0 and at most 10")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

func confirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return choice == PromptYes, nil
}

// selectOne shows labels and returns the index of the chosen one.
func selectOne(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  min(len(items), 10),
	}
	index, _, err := prompt.Run()
	if err != nil {
		return -1, fmt.Errorf("select: %w", err)
	}
	return index, nil
}
