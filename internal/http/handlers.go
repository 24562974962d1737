package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health maneja GET /api/health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StreamTest maneja GET /api/stream-test: emite ticks temporizados para
// verificar que la infraestructura intermedia no bufferea la respuesta.
func StreamTest(c *gin.Context) {
	streamingHeaders(c, "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	c.Writer.WriteString("start\n")
	c.Writer.Flush()
	for i := 1; i <= 5; i++ {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(300 * time.Millisecond):
		}
		fmt.Fprintf(c.Writer, "tick %d\n", i)
		c.Writer.Flush()
	}
	c.Writer.WriteString("end\n")
	c.Writer.Flush()
}
