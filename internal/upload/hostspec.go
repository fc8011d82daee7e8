package upload

import (
	"fmt"
	"strconv"
	"strings"
)

// HostSpec is a parsed remote endpoint.
type HostSpec struct {
	User string
	Host string
	Port int
}

func (h HostSpec) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// ParseHostSpec accepts "user@host", "user@host:port" and the same forms with
// an "ssh://" prefix. The user defaults to the hoster's conventional sshuser
// and the port to 22. A trailing ":text" that is not a number is treated as
// part of the host, matching how the original deployment tolerated IPv6-ish
// values.
func ParseHostSpec(value string) (HostSpec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return HostSpec{}, fmt.Errorf("host spec is empty")
	}

	value = strings.TrimPrefix(value, "ssh://")

	user := ""
	hostPort := value
	if at := strings.Index(value, "@"); at >= 0 {
		user = value[:at]
		hostPort = value[at+1:]
	}

	host := hostPort
	port := 22
	if colon := strings.LastIndex(hostPort, ":"); colon >= 0 {
		if p, err := strconv.Atoi(hostPort[colon+1:]); err == nil {
			host = hostPort[:colon]
			port = p
		}
	}

	if user == "" {
		user = "sshuser"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return HostSpec{}, fmt.Errorf("host spec %q has an empty host", value)
	}

	return HostSpec{User: strings.TrimSpace(user), Host: host, Port: port}, nil
}
