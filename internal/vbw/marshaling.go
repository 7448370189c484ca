package vbw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// recursiveUnmarshalResource reads the file at path, following it if it is a
// manifest. manifStack holds the manifests currently being followed, both to
// skip circular references and to cap recursion at MaxManifestRecursionDepth.
//
// ErrManifestEmpty is returned only if the first manifest is empty.
func recursiveUnmarshalResource(path string, manifStack []string) (topLevelWorldData, error) {
	path = filepath.Clean(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}
	if fileInfo.Format != FormatName {
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have a 'format = %q' entry", path, FormatName)
	}

	switch fileInfo.Type {
	case "DATA":
		unmarshaled, err := unmarshalWorldData(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("world data file %q: %w", path, err)
		}
		unmarshaled.origin = path
		for i := range unmarshaled.Commands {
			unmarshaled.Commands[i].origin = fmt.Sprintf("%s: command[%d]", path, i)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem at the top
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		subStack := make([]string, len(manifStack)+1)
		copy(subStack, manifStack)
		subStack[len(subStack)-1] = path

		manifDir := filepath.Dir(path)
		combined := topLevelWorldData{origin: path}
		processed := 0

		for _, relPath := range manif.Files {
			included, err := recursiveUnmarshalResource(filepath.Join(manifDir, relPath), subStack)
			if err != nil {
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}
				return topLevelWorldData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			if err := combine(&combined, included); err != nil {
				return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, err)
			}
			processed++
		}

		if len(manifStack) == 0 && processed == 0 {
			return combined, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil
	default:
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

// combine merges src into dest. start and intro may each be given by only one
// file.
func combine(dest *topLevelWorldData, src topLevelWorldData) error {
	if src.World.Start != "" {
		if dest.World.Start != "" {
			return fmt.Errorf("%s: duplicate start; start has already been defined as %q", src.origin, dest.World.Start)
		}
		dest.World.Start = src.World.Start
	}
	if src.World.Intro != "" {
		if dest.World.Intro != "" {
			return fmt.Errorf("%s: duplicate intro; intro has already been defined", src.origin)
		}
		dest.World.Intro = src.World.Intro
	}

	dest.Directions = append(dest.Directions, src.Directions...)
	dest.Rooms = append(dest.Rooms, src.Rooms...)
	dest.Commands = append(dest.Commands, src.Commands...)
	return nil
}

// unmarshalWorldData decodes a DATA file without checking its contents.
func unmarshalWorldData(tomlData []byte) (topLevelWorldData, error) {
	var vbw topLevelWorldData
	if _, err := toml.Decode(string(tomlData), &vbw); err != nil {
		return vbw, err
	}

	info := FileInfo{Format: vbw.Format, Type: vbw.Type}
	if err := checkHeader(info, "DATA"); err != nil {
		return vbw, err
	}
	return vbw, nil
}

// unmarshalManifest decodes a MANIFEST file without following it.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var vbw topLevelManifest
	if _, err := toml.Decode(string(tomlData), &vbw); err != nil {
		return vbw, err
	}

	info := FileInfo{Format: vbw.Format, Type: vbw.Type}
	if err := checkHeader(info, "MANIFEST"); err != nil {
		return vbw, err
	}
	return vbw, nil
}

func checkHeader(info FileInfo, wantType string) error {
	if !strings.EqualFold(info.Format, FormatName) {
		return fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if !strings.EqualFold(info.Type, wantType) {
		return fmt.Errorf("in header: 'type' must exist and be set to %q", wantType)
	}
	return nil
}
