/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"runtime"
	"strings"
)

// CallerPackage returns the import path of the package of the function
// skip frames above the caller of CallerPackage. External test packages
// report the package under test.
func CallerPackage(skip int) (string, bool) {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", false
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", false
	}
	pkg := FuncPackage(fn.Name())
	return pkg, pkg != ""
}

// FuncPackage extracts the import path from a fully qualified function name
// as reported by the runtime:
// "example.com/app/billing.(*Ledger).Open" -> "example.com/app/billing".
func FuncPackage(fn string) string {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return ""
	}
	// The linker escapes dots in the last path element as %2e.
	return strings.ReplaceAll(strings.TrimSuffix(fn[:slash+1+dot], "_test"), "%2e", ".")
}
