package codegen

import (
	"strings"

	"knums/pkg/vfs"
)

// ManifestName is the dependency file written next to the outputs.
const ManifestName = "knums.d"

// WriteManifest records that stamp depends on every input, as a single
// make rule.
func WriteManifest(disk *vfs.Disk, stamp string, inputs []string) error {
	var sb strings.Builder
	sb.WriteString(stamp)
	sb.WriteByte(':')
	for _, in := range inputs {
		sb.WriteByte(' ')
		sb.WriteString(in)
	}
	sb.WriteByte('\n')

	if err := disk.Write(ManifestName, []byte(sb.String())); err != nil {
		return &Error{Kind: IO, Op: "write " + ManifestName, Err: err}
	}
	return nil
}
