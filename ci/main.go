// Command ci runs the test suite and the data preparation pipeline inside a
// Go container and exports the produced artifacts to the host.
//
// Usage (from the repository root):
//
//	go run ./ci
package main

import (
	"context"
	"fmt"
	"os"

	"dagger.io/dagger"
)

const (
	goImage = "golang:1.24-bookworm"

	// prepareConfig points cmd/prepare at the dataset committed under testdata/.
	prepareConfig = "ci/prepare.yaml"
)

func main() {
	ctx := context.Background()

	if err := Build(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Build runs go test then cmd/prepare with prepareConfig and exports
// artifacts/ and logs/.
func Build(ctx context.Context) error {
	client, err := dagger.Connect(ctx, dagger.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer client.Close()

	repo := client.Host().Directory(".", dagger.HostDirectoryOpts{
		Exclude: []string{"artifacts/", "logs/", "_examples/"},
	})

	modCache := client.CacheVolume("go-mod-cache")
	buildCache := client.CacheVolume("go-build-cache")

	base := client.Container().
		From(goImage).
		WithMountedCache("/go/pkg/mod", modCache).
		WithMountedCache("/root/.cache/go-build", buildCache).
		WithDirectory("/src", repo).
		WithWorkdir("/src").
		WithExec([]string{"go", "mod", "download"})

	fmt.Println("Running tests")
	tested := base.WithExec([]string{"go", "test", "./..."})
	if _, err := tested.Stdout(ctx); err != nil {
		return err
	}

	fmt.Println("Running data preparation")
	prepared := tested.WithExec([]string{"go", "run", "./cmd/prepare", prepareConfig})
	if _, err := prepared.Stdout(ctx); err != nil {
		return err
	}

	fmt.Println("Exporting artifacts and logs")
	if _, err := prepared.Directory("/src/artifacts").Export(ctx, "artifacts"); err != nil {
		return err
	}
	if _, err := prepared.Directory("/src/logs").Export(ctx, "logs"); err != nil {
		return err
	}

	fmt.Println("Pipeline complete")
	return nil
}
