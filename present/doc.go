// Package present moves finished frames out of the process: to the
// window as a GPU texture, or to disk as a screenshot.
//
// # Window
//
// TexturePresenter uploads a fractal.Framebuffer through a
// gpucontext.TextureDrawer. The texture is created on the first frame and
// updated in place afterwards; a resize recreates it. When the surface
// expects BGRA the channels are swapped during the upload copy.
//
//	pres := present.NewTexturePresenter(present.SurfaceFormat(provider))
//	defer pres.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if err := pres.Present(dc.AsTextureDrawer(), fb); err != nil {
//	        log.Print(err)
//	    }
//	})
//
// # Screenshots
//
// WriteTGA writes an uncompressed 32-bit TGA (image type 2, top-left
// origin, BGRA pixels). Capture picks the encoder from the file extension:
// .tga, .png, .bmp or .tif/.tiff.
package present
