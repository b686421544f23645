// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs the GROBID service in a local Docker or Podman
// container.
package container

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// DefaultImage is the GROBID image started when none is configured.
	DefaultImage = "lfoppiano/grobid:0.8.0"

	// DefaultName is the container name used by Start and Stop.
	DefaultName = "journal-import-grobid"

	// ServicePort is the port GROBID listens on inside the container.
	ServicePort = 8070
)

// Service describes a detached GROBID container.
type Service struct {
	Name  string
	Image string
	Port  int // host port mapped to ServicePort
}

// WithDefaults fills zero fields with DefaultName, DefaultImage and ServicePort.
func (s Service) WithDefaults() Service {
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.Image == "" {
		s.Image = DefaultImage
	}
	if s.Port == 0 {
		s.Port = ServicePort
	}
	return s
}

// Runtime provides the container operations needed to manage the service.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// ImageExists checks whether the named image exists locally.
	ImageExists(image string) error

	// Pull fetches image from its registry.
	Pull(image string) error

	// Start runs svc detached and removes it when it stops.
	Start(svc Service) error

	// Stop stops the named container.
	Stop(name string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	Output(name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// runtime implements Runtime for one container binary. Docker and Podman
// differ only in the binary and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Pull(image string) error {
	return r.run("pulling "+image, "pull", image)
}

func (r *runtime) Start(svc Service) error {
	svc = svc.WithDefaults()
	ports := strconv.Itoa(svc.Port) + ":" + strconv.Itoa(ServicePort)
	return r.run("starting "+svc.Name, "run", "-d", "--rm", "--name", svc.Name, "-p", ports, svc.Image)
}

func (r *runtime) Stop(name string) error {
	if name == "" {
		name = DefaultName
	}
	return r.run("stopping "+name, "stop", name)
}

func (r *runtime) run(what string, args ...string) error {
	out, err := r.exec.Output(r.bin, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s with %s: %w", what, r.bin, err)
		}
		return fmt.Errorf("%s with %s: %w: %s", what, r.bin, err, msg)
	}
	return nil
}

// Ensure pulls svc's image when it is missing locally and starts svc.
func Ensure(rt Runtime, svc Service) error {
	svc = svc.WithDefaults()
	if rt.ImageExists(svc.Image) != nil {
		if err := rt.Pull(svc.Image); err != nil {
			return err
		}
	}
	return rt.Start(svc)
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

var defaultExec = &osExecutor{}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
