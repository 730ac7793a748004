package models

type StatusLevel int

const (
	StatusIdle StatusLevel = iota
	StatusBusy
	StatusError
)

// Status is the text and level shown in the window's status strip.
type Status struct {
	Text  string
	Level StatusLevel
}

func Ready() Status {
	return Status{Text: "Ready", Level: StatusIdle}
}

func Busy(text string) Status {
	return Status{Text: text, Level: StatusBusy}
}

func Failed(text string) Status {
	return Status{Text: text, Level: StatusError}
}

// Active is an in-session message; it uses the success colour like Ready.
func Active(text string) Status {
	return Status{Text: text, Level: StatusIdle}
}
