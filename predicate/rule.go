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

package predicate

import (
	"fmt"

	"dirpx.dev/legacy/apis"
)

// FromRule compiles the name conditions of a declarative rule into a
// predicate. A rule without conditions matches every member.
func FromRule(r apis.Rule) (apis.Predicate, error) {
	var ps []apis.Predicate
	if len(r.Names) > 0 {
		ps = append(ps, Named(r.Names...))
	}
	if r.Pattern != "" {
		p, err := Pattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("legacy(predicate): invalid pattern %q: %w", r.Pattern, err)
		}
		ps = append(ps, p)
	}
	if r.Prefix != "" {
		ps = append(ps, Prefixed(r.Prefix))
	}
	if r.Getter {
		ps = append(ps, Getter())
	}
	if r.Constant {
		ps = append(ps, Constant())
	}
	return All(ps...), nil
}
