package probetest

//go:generate mockgen -destination=mock_runner.go -package=probetest github.com/vertti/devauth/pkg/probe Runner

import (
	"github.com/golang/mock/gomock"

	"github.com/vertti/devauth/pkg/probe"
)

// Installed makes every LookPath call on m succeed.
func Installed(m *MockRunner) {
	m.EXPECT().LookPath(gomock.Any()).DoAndReturn(func(file string) (string, error) {
		return "/usr/bin/" + file, nil
	}).AnyTimes()
}

// Exits returns an Output with the given exit code and stdout.
func Exits(code int, stdout string) probe.Output {
	return probe.Output{ExitCode: code, Stdout: stdout}
}
