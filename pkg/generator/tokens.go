// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package generator

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEstimator counts tokens with tiktoken's cl100k_base encoding, a
// workable approximation for Claude-family models.
type tokenEstimator struct {
	encoder *tiktoken.Tiktoken
	mu      sync.Mutex
}

var (
	globalEstimator *tokenEstimator
	estimatorOnce   sync.Once
)

func getEstimator() *tokenEstimator {
	estimatorOnce.Do(func() {
		tkm, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			globalEstimator = &tokenEstimator{encoder: nil}
			return
		}
		globalEstimator = &tokenEstimator{encoder: tkm}
	})
	return globalEstimator
}

// EstimateTokens returns the approximate token count of text. Falls back to
// character-based estimation when the encoding is unavailable.
func EstimateTokens(text string) int {
	e := getEstimator()
	if e.encoder == nil {
		return len(text) / 4
	}

	// tiktoken encoders are not safe for concurrent use.
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.encoder.Encode(text, nil, nil))
}
