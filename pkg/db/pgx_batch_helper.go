/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type batchSender func(context.Context, *pgx.Batch) pgx.BatchResults

// sendBatchExecAll sends batch and drains every queued Exec so the first
// failing command is reported with its index. Close errors are only surfaced
// when every Exec succeeded.
func sendBatchExecAll(ctx context.Context, batch *pgx.Batch, send batchSender, operation string) (err error) {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	br := send(ctx, batch)

	defer func() {
		closeErr := br.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("%s: batch close: %w", operation, closeErr)
		}
	}()

	for i := range batch.Len() {
		if _, execErr := br.Exec(); execErr != nil {
			return fmt.Errorf("%s: command %d: %w", operation, i, execErr)
		}
	}

	return nil
}
