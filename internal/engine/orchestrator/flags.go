package orchestrator

import (
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
)

const portageConfigDir = "etc/portage"

// FlagFiles renders the portage configuration files generated from the spec.
func FlagFiles(spec domain.EffectiveSpec) []ports.ImageFile {
	return []ports.ImageFile{
		flagFile("package.accept_keywords", spec.AcceptKeywords.Lines()),
		flagFile("package.use", spec.Use.Lines()),
		flagFile("package.license", spec.License.Lines()),
		flagFile("package.mask", spec.Mask),
	}
}

func flagFile(dir string, lines []string) ports.ImageFile {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return ports.ImageFile{
		Path:    portageConfigDir + "/" + dir + "/genpack",
		Content: []byte(b.String()),
	}
}
