// seehuhn.de/go/psprint - a driver core for PostScript page printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accessory

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store persists an accessory configuration as a YAML file.
//
// Saves are atomic: the new content is written to a temporary file in
// the same directory and renamed over the old one, so a concurrent
// reader never sees a partially written configuration.
type Store struct {
	Path string
}

// Load reads the stored configuration.  A missing file is not an
// error; it yields the empty configuration of a freshly loaded model.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("accessory config %s: %w", s.Path, err)
	}
	return cfg, nil
}

// Save writes the configuration.
func (s *Store) Save(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".psprint-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, s.Path)
}
