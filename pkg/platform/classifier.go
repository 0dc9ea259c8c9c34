package platform

import "strings"

// classifierArches maps a normalized architecture to the spellings used
// in Maven native classifiers.
var classifierArches = map[string][]string{
	"amd64": {"x86_64", "amd64", "x64"},
	"arm64": {"aarch64", "arm64"},
	"386":   {"x86", "i386", "i686"},
}

// classifierSystems maps a normalized OS to the prefixes used in Maven
// native classifiers.
var classifierSystems = map[string][]string{
	"linux":   {"linux"},
	"macos":   {"osx", "macos"},
	"windows": {"windows", "win"},
}

// ClassifierMatches reports whether a Maven native classifier such as
// "linux-x86_64" or "osx-aarch64" is compatible with the platform. A
// classifier consisting of a bare system name ("linux") matches any
// architecture on that system.
func (p Platform) ClassifierMatches(classifier string) bool {
	classifier = strings.ToLower(classifier)

	systems, ok := classifierSystems[p.OS]
	if !ok {
		systems = []string{p.OS}
	}
	arches, ok := classifierArches[p.Arch]
	if !ok {
		arches = []string{p.Arch}
	}

	for _, sys := range systems {
		if classifier == sys {
			return true
		}
		for _, arch := range arches {
			if strings.HasPrefix(classifier, sys+"-"+arch) {
				return true
			}
		}
	}
	return false
}
