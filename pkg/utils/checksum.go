package utils

import (
	"crypto/md5"
	"encoding/base64"
	"io"
)

// HashContent computes the content fingerprint of an uploaded stream: MD5
// rendered as base64. The fingerprint is for integrity and display, not
// authentication. The stream is rewound to the start afterwards so the caller
// can read it again to persist the bytes.
func HashContent(rs io.ReadSeeker) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, rs); err != nil {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
