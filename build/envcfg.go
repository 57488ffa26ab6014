// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read by ConfigFromEnv.
const EnvPrefix = "TENSORC_"

// ConfigFromEnv builds a Config from TENSORC_* environment variables:
// TENSORC_AUTO_UNROLL_MAX_STEP=8 becomes auto_unroll_max_step=8, and so on
// for every recognized option. Unset options are simply not overridden.
// Unrecognized TENSORC_* variables are ignored -- the environment carries
// more than build options.
func ConfigFromEnv() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading build config from environment")
	}
	options := make(map[string]any)
	for name, def := range configDefaults {
		if !k.Exists(name) {
			continue
		}
		switch def.(type) {
		case int:
			options[name] = k.Int(name)
		case bool:
			options[name] = k.Bool(name)
		}
	}
	return NewConfig(options)
}
