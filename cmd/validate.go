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
	"go.uber.org/zap"

	"github.com/valpere/libretran/internal/validator"
)

// checkLanguage warns when the translation does not look like the target
// language. The printed result is never changed.
func (a *app) checkLanguage(translated string) {
	if err := validator.New().Check(translated, a.cfg.Target); err != nil {
		a.logger.Warn("translation failed language check",
			zap.String("target", a.cfg.Target),
			zap.Error(err),
		)
	}
}
