package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResolveSession picks the session identity for a request. A
// client-supplied header wins over the stored (cookie) identity; with
// neither, a fresh id is synthesized from the client address and the
// current time. created reports whether the id is new and must be
// communicated back to the client.
func ResolveSession(headerID, storedID, clientAddr string, now time.Time) (id string, created bool) {
	if s := strings.TrimSpace(headerID); s != "" {
		return s, false
	}
	if s := strings.TrimSpace(storedID); s != "" {
		return s, false
	}
	if strings.TrimSpace(clientAddr) == "" {
		return uuid.NewString(), true
	}
	return fmt.Sprintf("%s_%d", clientAddr, now.Unix()), true
}
