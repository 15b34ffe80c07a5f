package extension

import "github.com/cityjson/cjval/internal/validator"

func newTestCompiler() validator.Compiler {
	return validator.NewSanthoshCompiler()
}
