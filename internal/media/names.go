package media

import (
	"path"
	"strings"
)

// ThumbUploadName is the client-facing filename a thumbnail is stored
// under, mirroring the original upload's name.
func ThumbUploadName(originalFileName string) string {
	return "thumb_" + path.Base(originalFileName)
}

// DeriveThumbStoredName reconstructs a thumbnail object name from the
// original object name for records that predate explicit thumbnail
// bookkeeping. Returns "" when no derivation is possible.
func DeriveThumbStoredName(fileName, originalFileName string) string {
	base := path.Base(originalFileName)
	if base == "" || base == "." || !strings.Contains(fileName, base) {
		return ""
	}
	return strings.Replace(fileName, base, "thumb_"+base, 1)
}
