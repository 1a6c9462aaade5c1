package views

import "edupath/internal/utils"

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return utils.UserMessage(err)
}
