package config

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultAWSRegion = "eu-central-1"

func parseChatID(chatIDStr string) (int64, error) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(chatIDStr), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chat ID: invalid chat ID %s: %w", chatIDStr, err)
	}
	return chatID, nil
}
