package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root when testing, so relative paths (logs dir,
	// sqlite files) resolve the same as in cmd/server. usage is
	//
	//   in some_test.go,
	//   import (
	//     _ "devmon.xyz/device-inventory-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)           // here runtime will return current file path
	dir := path.Join(path.Dir(filename), "..", "..") // and by double .. we will go to the project root
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
