/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// listLanguages prints the endpoint's language table for --list-languages.
func (a *app) listLanguages(ctx context.Context, out io.Writer) error {
	langs, err := a.client().Languages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}

	if len(langs) == 0 {
		fmt.Fprintln(out, "No languages reported by endpoint.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tTARGETS")
	for _, l := range langs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, strings.Join(l.Targets, ","))
	}
	return w.Flush()
}
