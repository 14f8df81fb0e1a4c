package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned when a lane cannot be parsed.
var ErrSyntax = errors.New("invalid marble")

// ParseLane reads a lane in the format printed by Lane.String, for example
// "A@10 B@40 |@90" or "A@10 x(boom)@30". Marbles are separated by spaces.
func ParseLane(s string) (Lane, error) {
	lane := Lane{}

	for _, token := range strings.Fields(s) {
		e, err := parseEvent(token)
		if err != nil {
			return nil, err
		}

		lane = append(lane, e)
	}

	return lane, nil
}

func parseEvent(token string) (TimedEvent, error) {
	at := strings.LastIndex(token, "@")
	if at <= 0 {
		return TimedEvent{}, fmt.Errorf("%w: %q", ErrSyntax, token)
	}

	time, err := strconv.Atoi(token[at+1:])
	if err != nil {
		return TimedEvent{}, fmt.Errorf("%w: %q", ErrSyntax, token)
	}

	body := token[:at]

	switch {
	case body == "|":
		return Finished(time), nil
	case strings.HasPrefix(body, "x(") && strings.HasSuffix(body, ")"):
		return Error(time, body[2:len(body)-1]), nil
	default:
		return Next(time, body), nil
	}
}
