package list_test

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/list"
)

const testWorkflow = `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - id: hello
        run: echo hello
  test:
    runs-on: windows-latest
    steps:
      - run: |
          Write-Output hello
        shell: pwsh
`

func TestController_List(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name  string
		param *list.Param
		cfg   *config.Config
		exp   string
		isErr bool
	}{
		{
			name:  "csv",
			param: &list.Param{},
			exp: `.github/workflows/test.yaml,8,workflow,build,1,hello,bash
.github/workflows/test.yaml,13,workflow,test,0,,pwsh
`,
		},
		{
			name:  "default shell",
			param: &list.Param{Job: "build"},
			cfg:   &config.Config{DefaultShell: "sh"},
			exp: `.github/workflows/test.yaml,8,workflow,build,1,hello,sh
`,
		},
		{
			name:  "template",
			param: &list.Param{LineTemplate: "{{.FileName}}:{{.Line}} {{.Location}} {{.Shell}}"},
			exp: `test.yaml:8 jobs.build.steps[1] bash
test.yaml:13 jobs.test.steps[0] pwsh
`,
		},
		{
			name:  "excludes",
			param: &list.Param{Excludes: []*regexp.Regexp{regexp.MustCompile(`jobs\.test\.`)}},
			exp: `.github/workflows/test.yaml,8,workflow,build,1,hello,bash
`,
		},
		{
			name:  "includes",
			param: &list.Param{Includes: []*regexp.Regexp{regexp.MustCompile(`jobs\.test\.`)}},
			exp: `.github/workflows/test.yaml,13,workflow,test,0,,pwsh
`,
		},
		{
			name:  "invalid template",
			param: &list.Param{LineTemplate: "{{.Foo"},
			isErr: true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			if err := fs.MkdirAll(".github/workflows", 0o755); err != nil {
				t.Fatal(err)
			}
			if err := afero.WriteFile(fs, ".github/workflows/test.yaml", []byte(testWorkflow), 0o644); err != nil {
				t.Fatal(err)
			}
			d.param.Dir = ".github/workflows"
			stdout := &bytes.Buffer{}
			logger := logrus.New()
			logger.Out = &bytes.Buffer{}
			err := list.New(fs, d.cfg, d.param, stdout).List(t.Context(), logrus.NewEntry(logger))
			if d.isErr {
				if err == nil {
					t.Fatal("an error should be returned")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.exp, stdout.String()); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
