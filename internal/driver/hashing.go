package driver

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// hashKey is a fixed, arbitrary 32-byte key: the driver only needs a fast,
// stable fingerprint (not a keyed MAC), so the key value itself carries no
// secrecy requirement.
var hashKey = [32]byte{
	0x68, 0x61, 0x6b, 0x61, 0x6e, 0x61, 0x67, 0x6f,
	0x64, 0x72, 0x69, 0x76, 0x65, 0x72, 0x63, 0x61,
	0x63, 0x68, 0x65, 0x73, 0x69, 0x67, 0x6e, 0x61,
	0x74, 0x75, 0x72, 0x65, 0x00, 0x00, 0x00, 0x00,
}

// FileHash fingerprints a file's raw contents for FileStatus comparison
// (spec §4.8 "Compute file_statuses ... by comparing file hashes").
func FileHash(contents []byte) uint64 {
	return highwayhash.Sum64(contents, hashKey[:])
}

// SignatureHash and BodyHash fingerprint the textual spans the scanner
// attributes to a declaration's signature and body respectively (spec §3
// "File info ... signature_hash, body_hash"), used by the codebase diff to
// classify a redeclared symbol as safe / signature-safe / unsafe.
func SignatureHash(text []byte) uint64 { return highwayhash.Sum64(text, hashKey[:]) }
func BodyHash(text []byte) uint64      { return highwayhash.Sum64(text, hashKey[:]) }

// BuildChecksum fingerprints the set of inputs that invalidate the whole
// persisted cache regardless of any single file's hash: the binary's own
// version plus the effective configuration (spec §4.8 "Persist to a cache
// directory keyed by a build checksum").
func BuildChecksum(version string, cfgBytes []byte) string {
	buf := make([]byte, 0, len(version)+len(cfgBytes)+8)
	buf = append(buf, version...)
	var lenPrefix [8]byte
	binary.LittleEndian.PutUint64(lenPrefix[:], uint64(len(version)))
	buf = append(buf, lenPrefix[:]...)
	buf = append(buf, cfgBytes...)
	sum := highwayhash.Sum64(buf, hashKey[:])
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], sum)
	return hex.EncodeToString(out[:])
}
