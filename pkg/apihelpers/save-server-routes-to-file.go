package apihelpers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// WriteRoutesToFile dumps the registered routes of the router into a
// tab separated file, sorted by path.
func WriteRoutesToFile(router *gin.Engine, filename string) error {
	routes := router.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	var sb strings.Builder
	for _, route := range routes {
		fmt.Fprintf(&sb, "%s\t%s\n", route.Method, route.Path)
	}

	return os.WriteFile(filename, []byte(sb.String()), 0644)
}
