// Package okapi scans images and video frames for barcodes.
//
// The package is a safe handle surface over a reference-counted scanning
// engine. Five handle types cover the whole workflow: Image wraps a frame
// of pixel data, ImageScanner decodes still images, Processor drives a
// capture device through the scan loop, and Symbol/SymbolSet expose
// decoded results. Every handle owns a reference on its engine object and
// releases it on Close. Results stay readable for as long as any handle to
// them is open, no matter in which order images, scanners and symbols are
// closed; a handle that goes out of scope unclosed is reclaimed by the
// garbage collector like any other value.
//
// A minimal scan:
//
//	img, err := okapi.ImageFromFile("label.png")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer img.Close()
//
//	sc := okapi.NewImageScanner()
//	defer sc.Close()
//	if err := sc.SetConfig(okapi.None, okapi.CfgEnable, 1); err != nil {
//		log.Fatal(err)
//	}
//
//	syms, err := sc.ScanImage(img)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer syms.Close()
//	for it := syms.Iter(); ; {
//		sym := it.Next()
//		if sym == nil {
//			break
//		}
//		fmt.Println(sym.Type(), sym.Data())
//		sym.Close()
//	}
package okapi
