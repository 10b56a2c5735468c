// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryVariantsMappedSubject(t *testing.T) {
	variants := QueryVariants("maths", "zero")

	assert.Equal(t, []string{
		"zero in maths",
		"zero maths ancient India",
		"zero in Indian mathematics",
		"zero",
	}, variants)
}

func TestQueryVariantsUnmappedSubject(t *testing.T) {
	variants := QueryVariants("geology", "monsoon")

	assert.Equal(t, []string{
		"monsoon in geology",
		"monsoon geology ancient India",
		"monsoon",
	}, variants)
}

func TestQueryVariantsCaseInsensitiveMapping(t *testing.T) {
	variants := QueryVariants("Science", "metallurgy")
	assert.Contains(t, variants, "metallurgy in ancient Indian science")
}

func TestQueryVariantsTrimsAndDeduplicates(t *testing.T) {
	variants := QueryVariants("  history  ", "  Mauryan empire ")

	assert.Equal(t, "Mauryan empire in history", variants[0])
	seen := make(map[string]bool)
	for _, v := range variants {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}
