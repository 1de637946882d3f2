// Copyright 2025 walteh LLC
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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/bulkrename/pkg/engine"
)

// Exit codes. A declined confirmation is a success: the tool did exactly
// what the user asked, which was nothing.
const (
	exitOK         = 0
	exitRunFailed  = 1
	exitSetup      = 2
	exitValidation = 3
	exitCollision  = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		os.Exit(exitOK)
	}

	fmt.Fprintln(os.Stderr, "bulkrename:", err)

	var se *setupError
	var ve *engine.ValidationFailedError
	var ce *engine.CollisionError
	switch {
	case errors.As(err, &se):
		os.Exit(exitSetup)
	case errors.As(err, &ve):
		os.Exit(exitValidation)
	case errors.As(err, &ce):
		os.Exit(exitCollision)
	default:
		os.Exit(exitRunFailed)
	}
}
