package orchestrator

import (
	"strconv"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
)

// Step is one command run inside the lower container.
type Step struct {
	Name string
	Argv []string
	Env  []string
}

var emergeBinpkg = []string{"emerge", "-bk", "--binpkg-respect-use=y"}

func emerge(args ...string) []string {
	return append(append([]string{}, emergeBinpkg...), args...)
}

// ProvisionSteps lists the lower provisioning commands in execution order.
func ProvisionSteps(spec domain.EffectiveSpec) []Step {
	steps := []Step{
		{Name: "emerge genpack-progs", Argv: emerge("-uDN", "genpack-progs", "--keep-going")},
		{Name: "fix binhost", Argv: []string{"emaint", "binhost", "--fix"}},
	}

	for _, atom := range spec.CircularDepBreaker.Keys() {
		flags, _ := spec.CircularDepBreaker.Get(atom)
		steps = append(steps, Step{
			Name: "break circular dependency of " + atom,
			Argv: emerge("-1", atom),
			Env:  []string{"USE=" + strings.Join(flags, " ")},
		})
	}

	if pkgs := spec.LowerPackages(); len(pkgs) > 0 {
		argv := emerge("-uDN", "--keep-going")
		for _, ex := range spec.BinpkgExcludes {
			argv = append(argv, "--usepkg-exclude", ex)
		}
		argv = append(argv, "world")
		argv = append(argv, pkgs...)
		steps = append(steps, Step{Name: "emerge world", Argv: argv})
	}

	return append(steps,
		Step{Name: "rebuild preserved libraries", Argv: emerge("@preserved-rebuild")},
		Step{Name: "remove unneeded packages", Argv: []string{"emerge", "--depclean"}},
		Step{Name: "merge configuration updates", Argv: []string{"etc-update", "--automode", "-5"}},
		Step{Name: "clean distfiles", Argv: []string{"eclean-dist", "-d"}},
		Step{Name: "clean binary packages", Argv: []string{"eclean-pkg", "-d"}},
	)
}

const copyupPackages = "/usr/bin/copyup-packages"

// CopyupListArgs lists the files the upper layer's packages pull from the lower layer.
func CopyupListArgs(spec domain.EffectiveSpec) []string {
	return append([]string{copyupPackages, "--list"}, spec.InstallPackages()...)
}

// CopyupArgs copies the packages' files from the lower layer into the upper layer.
func CopyupArgs(spec domain.EffectiveSpec) []string {
	argv := []string{copyupPackages, "--bind-mount-root", "--toplevel-dirs", "--exec-package-scripts", "--generate-metadata"}
	return append(argv, spec.InstallPackages()...)
}

// GroupAddArgs renders groupadd for g.
func GroupAddArgs(g domain.Group) []string {
	argv := []string{"groupadd"}
	if g.GID != nil {
		argv = append(argv, "-g", strconv.FormatInt(*g.GID, 10))
	}
	return append(argv, g.Name)
}

// UserAddArgs renders useradd for u. The home directory is always created.
func UserAddArgs(u domain.User) []string {
	argv := []string{"useradd"}
	if u.UID != nil {
		argv = append(argv, "-u", strconv.FormatInt(*u.UID, 10))
	}
	if u.Comment != "" {
		argv = append(argv, "-c", u.Comment)
	}
	if u.Home != "" {
		argv = append(argv, "-d", u.Home)
	}
	if u.InitialGroup != "" {
		argv = append(argv, "-g", u.InitialGroup)
	}
	if len(u.AdditionalGroups) > 0 {
		argv = append(argv, "-G", strings.Join(u.AdditionalGroups, ","))
	}
	if u.Shell != "" {
		argv = append(argv, "-s", u.Shell)
	}
	return append(argv, "-m", u.Name)
}
