package launcher_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/launcher"
)

func ExampleDriver_ResolveAndActivate() {
	cat := catalog.New(
		catalog.Record{Identity: catalog.Identity{Name: "foo", Version: "1.0"}, Path: "/p/foo-1.0.jar"},
		catalog.Record{Identity: catalog.Identity{Name: "foo", Version: "2.0"}, Path: "/p/foo-2.0.jar"},
	)
	d := &launcher.Driver{
		Catalog:       cat,
		Framework:     launcher.NewRecorder(cat),
		Logger:        log.New(io.Discard),
		LatestVersion: true,
	}
	res, err := d.ResolveAndActivate(context.Background(), []catalog.Identity{
		{Name: "foo", Version: "1.0"},
		{Name: "missing", Version: "1.0"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("started:", res.Started)
	fmt.Println("unresolved:", res.Unresolved)
	// Output:
	// started: [/p/foo-2.0.jar]
	// unresolved: [missing@1.0]
}
