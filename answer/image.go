package answer

import (
	"encoding/base64"
	"strings"
)

// minImageBytes rejects payloads too small to be a real image.
const minImageBytes = 500

// IsValidImage reports whether imageData is plausible base64 image data.
// A data URL prefix is tolerated and stripped before decoding. Invalid
// images are ignored rather than failing the request.
func IsValidImage(imageData string) bool {
	if imageData == "" {
		return false
	}

	if strings.HasPrefix(imageData, "data:image/") {
		_, payload, found := strings.Cut(imageData, ",")
		if !found {
			return false
		}
		imageData = payload
	}

	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return false
	}
	return len(decoded) > minImageBytes
}
