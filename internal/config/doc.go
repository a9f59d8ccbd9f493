// Package config loads sortable.json, the server configuration.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "shutdownTimeout": "10s",
//	    "metrics": true
//	  },
//	  "list": {
//	    "title": "Groceries",
//	    "items": ["Apples", "Bread", "Cheese"],
//	    "axis": "vertical",
//	    "gap": 4
//	  },
//	  "drag": {
//	    "handle": ".grip",
//	    "lockX": true
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// Missing fields take the values of New.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
