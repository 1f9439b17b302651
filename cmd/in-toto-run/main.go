// Copyright 2026 The in-toto Authors.
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

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gjvanhalem/in-toto/cmd/in-toto-run/cli"
	"github.com/gjvanhalem/in-toto/pkg/tracing"
)

// ExitCoder lets errors carry a process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

func main() {
	log.SetFlags(0)

	if err := tracing.InitFromEnv(); err != nil {
		log.Fatalf("error initializing tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(ctx)
	}()

	if err := cli.New().Execute(); err != nil {
		var ec ExitCoder
		if errors.As(err, &ec) {
			log.Printf("error during command execution: %v", err)
			os.Exit(ec.ExitCode())
		}

		log.Fatalf("error during command execution: %v", err)
	}
}
