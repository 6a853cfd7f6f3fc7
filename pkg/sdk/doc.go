// Package geoknow is a Go client for the geoknow HTTP API.
//
// Quick start:
//
//	client, err := geoknow.New("http://localhost:8080",
//		geoknow.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := client.Ask(ctx, &geoknow.Query{
//		Text: "What was built near the Forbidden City during the Ming dynasty?",
//		Filters: &geoknow.Filters{
//			Geo: &geoknow.GeoFilter{Lat: 39.916, Lon: 116.397, RadiusKm: 5},
//		},
//	})
//
// Streaming answers are consumed with a range loop:
//
//	events, err := client.Stream(ctx, &geoknow.Query{Text: "..."})
//	for ev := range events {
//		switch ev.Type {
//		case geoknow.EventContent:
//			fmt.Print(ev.Content)
//		case geoknow.EventError:
//			log.Println(ev.Err)
//		}
//	}
package geoknow
