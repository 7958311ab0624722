package main

import (
	"strings"

	"github.com/go-andiamo/uploader"
)

// builtinFunctions is the function registry available to upload jobs
func builtinFunctions() map[string]uploader.Function {
	return map[string]uploader.Function{
		"concat": uploader.FixedArity(uploader.FunctionFunc(func(jc *uploader.JobContext, args []string) (any, error) {
			return strings.Join(args, ""), nil
		}), 1, -1),
		"upper": uploader.FixedArity(uploader.FunctionFunc(func(jc *uploader.JobContext, args []string) (any, error) {
			return strings.ToUpper(args[0]), nil
		}), 1, 1),
		"lower": uploader.FixedArity(uploader.FunctionFunc(func(jc *uploader.JobContext, args []string) (any, error) {
			return strings.ToLower(args[0]), nil
		}), 1, 1),
		"trim": uploader.FixedArity(uploader.FunctionFunc(func(jc *uploader.JobContext, args []string) (any, error) {
			return strings.TrimSpace(args[0]), nil
		}), 1, 1),
		// default(value, fallback)
		"default": uploader.FixedArity(uploader.FunctionFunc(func(jc *uploader.JobContext, args []string) (any, error) {
			if strings.TrimSpace(args[0]) == "" {
				return args[1], nil
			}
			return args[0], nil
		}), 2, 2),
	}
}
