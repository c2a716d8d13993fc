package remote

import (
	"net"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
)

// Send delivers one OSC message to the server at addr ("host:port").
func Send(addr, address string, args ...interface{}) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	client := osc.NewClient(host, port)
	return client.Send(osc.NewMessage(address, args...))
}

// ParseArgs converts command line words into OSC arguments: integers become int32,
// other numbers float32, "true"/"false" booleans and anything else a string.
func ParseArgs(words []string) []interface{} {
	args := make([]interface{}, 0, len(words))
	for _, w := range words {
		if i, err := strconv.ParseInt(w, 10, 32); err == nil {
			args = append(args, int32(i))
			continue
		}
		if f, err := strconv.ParseFloat(w, 32); err == nil {
			args = append(args, float32(f))
			continue
		}
		switch strings.ToLower(w) {
		case "true":
			args = append(args, true)
			continue
		case "false":
			args = append(args, false)
			continue
		}
		args = append(args, w)
	}
	return args
}
