package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/adapters/shell"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Run_StreamsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var got []string
	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) { got = append(got, msg) }).AnyTimes()

	executor := shell.NewExecutor(logger)
	err := executor.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "printf part1; sleep 0.1; echo part2; echo $GENPACK_TEST_VAR"},
		Env:  []string{"GENPACK_TEST_VAR=test-value-123"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, "$ sh -c 'printf part1; sleep 0.1; echo part2; echo $GENPACK_TEST_VAR'", got[0])
	assert.Contains(t, got, "part1part2")
	assert.Contains(t, got, "test-value-123")
}

func TestExecutor_Run_ExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := shell.NewExecutor(logger).Run(context.Background(), domain.Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalTool)

	var toolErr *domain.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "sh", toolErr.Command)
	assert.Equal(t, 3, toolErr.ExitCode)
}

func TestExecutor_Run_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := shell.NewExecutor(logger).Run(context.Background(), domain.Command{Name: "genpack-no-such-binary"})
	var toolErr *domain.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, -1, toolErr.ExitCode)
}

func TestExecutor_Output(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).Times(1)

	out, err := shell.NewExecutor(logger).Output(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo /usr/bin/hello; echo warning >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/hello\n", string(out))
}

func TestQuoteArgv(t *testing.T) {
	assert.Equal(t, "emerge -uDN world", shell.QuoteArgv([]string{"emerge", "-uDN", "world"}))
	assert.Equal(t, "echo 'a b' ''", shell.QuoteArgv([]string{"echo", "a b", ""}))
}
