package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/genpack/internal/core/domain"
)

func TestExecutor_Argv(t *testing.T) {
	tests := []struct {
		name string
		euid int
		cmd  domain.Command
		want []string
	}{
		{
			name: "unprivileged",
			euid: 1000,
			cmd:  domain.Command{Name: "git", Args: []string{"pull"}},
			want: []string{"git", "pull"},
		},
		{
			name: "privileged as user",
			euid: 1000,
			cmd:  domain.Command{Name: "mount", Args: []string{"-o", "loop", "lower.img", "/mnt"}, Privileged: true},
			want: []string{"sudo", "mount", "-o", "loop", "lower.img", "/mnt"},
		},
		{
			name: "privileged as root",
			euid: 0,
			cmd:  domain.Command{Name: "mount", Args: []string{"lower.img"}, Privileged: true},
			want: []string{"mount", "lower.img"},
		},
		{
			name: "privileged with environment",
			euid: 1000,
			cmd:  domain.Command{Name: "mksquashfs", Env: []string{"LC_ALL=C"}, Privileged: true},
			want: []string{"sudo", "env", "LC_ALL=C", "mksquashfs"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Executor{euid: func() int { return tt.euid }}
			assert.Equal(t, tt.want, e.argv(tt.cmd))
		})
	}
}

type lines struct {
	info   []string
	errors []string
}

func (l *lines) Info(msg string) { l.info = append(l.info, msg) }
func (l *lines) Warn(string)     {}
func (l *lines) Error(err error) { l.errors = append(l.errors, err.Error()) }

func TestLogWriter_SplitsFragmentedLines(t *testing.T) {
	log := &lines{}
	w := &logWriter{logger: log, level: "info"}

	_, _ = w.Write([]byte("part1"))
	_, _ = w.Write([]byte("part2\r\nline2\nunterminated"))
	assert.Equal(t, []string{"part1part2", "line2"}, log.info)

	_ = w.Close()
	assert.Equal(t, []string{"part1part2", "line2", "unterminated"}, log.info)
}
