package store

import "fmt"

// metadataKey and blockKey mirror the original relay's S3 key layout
// exactly, so admin tooling written against one backend works unmodified
// against the other.
const metadataPrefix = "metadata/"
const blockPrefix = "file/"

func metadataKey(id string) string {
	return fmt.Sprintf("%s%s.json", metadataPrefix, id)
}

func blockKey(id string, seq int) string {
	return fmt.Sprintf("%s%s.%d", blockPrefix, id, seq)
}
