package job

import "github.com/oneee-playground/crackdash/internal/notify"

const badDataText = "You sent bad data, check your input and if it's correct get in touch with us on github"

var forbidden = notify.Message{Level: notify.LevelWarning, Text: "You're not allowed to do that..."}

// Codes outside these tables are not reported to the operator.
var (
	listMessages = notify.Messages{
		Status: map[int]notify.Message{
			400: {Level: notify.LevelError, Text: badDataText},
			403: forbidden,
			404: {Level: notify.LevelError, Text: "That object was not found."},
			409: {Level: notify.LevelError, Text: "The request could not be completed because there was a conflict with the existing resource."},
			500: {Level: notify.LevelError, Text: "An internal server error occured while trying to load the job list."},
		},
	}

	submitMessages = notify.Messages{
		Status: map[int]notify.Message{
			400: {Level: notify.LevelError, Text: badDataText},
			403: forbidden,
			404: {Level: notify.LevelError, Text: "That object was not found."},
			409: {Level: notify.LevelError, Text: "The request could not be completed because there was a conflict with the existing resource."},
			500: {Level: notify.LevelError, Text: "An internal server error occured while trying to add the job."},
		},
	}

	updateMessages = notify.Messages{
		Status: map[int]notify.Message{
			400: {Level: notify.LevelError, Text: badDataText},
			403: forbidden,
			404: {Level: notify.LevelError, Text: "That job was not found."},
			409: {Level: notify.LevelError, Text: "The job is not in a state that allows this action."},
			500: {Level: notify.LevelError, Text: "An internal server error occured while trying to update the job."},
		},
	}
)
