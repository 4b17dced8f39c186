package jellyfin

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the server identity stamped into responses.
type Identity struct {
	ServerID     string
	ServerName   string
	LocalAddress string
	UserName     string
}

const (
	version         = "10.8.0"
	productName     = "Jellyfin Server"
	operatingSystem = "Linux"

	// Used where a Jellyfin server would reference an image or item that doesn't exist here
	zeroID = "00000000000000000000000000000000"
)

// ServerIDFromName derives a stable server ID from the server name.
func ServerIDFromName(serverName string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(serverName)).String()
}

// UserID returns the stable ID of the user with the given name on this server.
func (i Identity) UserID(userName string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(i.ServerID+userName)).String()
}

// Etag returns a tag derived from id and name.
// It only changes when the content changes, so clients can cache by it.
func Etag(id, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(id+name)).String()
}

// Jellyfin uses .NET's round-trip format with 100ns precision
const timestampLayout = "2006-01-02T15:04:05.0000000Z"

// Timestamp formats t the way Jellyfin formats dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
