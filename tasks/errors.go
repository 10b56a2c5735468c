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


package tasks

import "errors"

var (
	// ErrConflict is returned when an artifact already exists for the
	// requested key and regeneration was not forced.
	ErrConflict = errors.New("artifact already exists; set force regenerate to overwrite")

	// ErrTaskNotFound is returned for unknown task ids.
	ErrTaskNotFound = errors.New("task not found")

	// ErrManagerClosed is returned when operating on a closed manager.
	ErrManagerClosed = errors.New("task manager is closed")

	// ErrStoreRequired is returned when no artifact store is provided.
	ErrStoreRequired = errors.New("artifact store is required")

	// ErrPipelineRequired is returned when no generation pipeline is provided.
	ErrPipelineRequired = errors.New("generation pipeline is required")
)
