package viz

import (
	"fmt"
	"strings"
)

// BodyCloseMarker is where the fullscreen control is inserted.
const BodyCloseMarker = "</body>"

// fullscreenID is the DOM id of the injected control.
const fullscreenID = "modelgraph-fullscreen"

// RenderPostProcessingError is returned when the generated document lacks
// the marker the fullscreen control is inserted before.
type RenderPostProcessingError struct {
	Marker string
}

func (e *RenderPostProcessingError) Error() string {
	return fmt.Sprintf("post-processing document: insertion marker %q not found", e.Marker)
}

// InjectFullscreen inserts the fullscreen toggle before the last </body>.
// Documents that already carry the whole control are returned unchanged; node
// data that merely mentions the control's id does not count.
func InjectFullscreen(doc string) (string, error) {
	if strings.Contains(doc, fullscreenBlock) {
		return doc, nil
	}
	idx := strings.LastIndex(doc, BodyCloseMarker)
	if idx < 0 {
		return "", &RenderPostProcessingError{Marker: BodyCloseMarker}
	}
	return doc[:idx] + fullscreenBlock + doc[idx:], nil
}

const fullscreenBlock = `<button
  id="` + fullscreenID + `"
  style="
    position: fixed;
    top: 20px;
    right: 20px;
    z-index: 10000;
    padding: 8px 16px;
    background-color: #4CAF50;
    color: white;
    border: none;
    border-radius: 4px;
    cursor: pointer;
    font-family: Arial, sans-serif;
    font-size: 14px;
  "
  onclick="toggleFullscreen()"
>
  Full Screen
</button>
<script>
  function toggleFullscreen() {
    var elem = document.documentElement;
    if (!document.fullscreenElement) {
      if (elem.requestFullscreen) {
        elem.requestFullscreen();
      } else if (elem.webkitRequestFullscreen) {
        elem.webkitRequestFullscreen();
      } else if (elem.msRequestFullscreen) {
        elem.msRequestFullscreen();
      }
    } else {
      if (document.exitFullscreen) {
        document.exitFullscreen();
      } else if (document.webkitExitFullscreen) {
        document.webkitExitFullscreen();
      } else if (document.msExitFullscreen) {
        document.msExitFullscreen();
      }
    }
  }
</script>
`
