// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package config loads application configuration from layered sources.

Precedence, lowest to highest:

 1. Built-in defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, ./config.yaml or /etc/baselike/config.yaml
 3. Environment variables, after an optional .env file is loaded

Example config.yaml:

	server:
	  port: 8080
	database:
	  driver: duckdb
	  path: /data/baselike.duckdb
	likes:
	  seed: [3, 12]
	  seed_on_add: true
	  type_aliases:
	    posts: Articles
	resolver:
	  mode: http
	  base_url: https://shop.example.com/api/entities

Equivalent environment:

	LIKES_SEED=3,12
	LIKES_SEED_ON_ADD=true
	LIKES_TYPE_ALIASES=posts=Articles
	RESOLVER_MODE=http
	RESOLVER_BASE_URL=https://shop.example.com/api/entities

Only the variables listed in envMappings are read.
*/
package config
