// Package schema defines the entity model: compiled, closed descriptors
// for mapped types and their properties, a YAML loader for definition
// files, structural validation, and the registry that resolves entities
// by name.
//
// Descriptors are plain data. Every classification the compiler dispatches
// on (geo point, join, completion, nested entity, ...) is an explicit
// descriptor field populated at load time, so compilation is ordinary
// branching instead of runtime introspection.
//
// # Definition file overview
//
// The definition file has the following structure:
//
//	version: "1"
//	entities:
//	  - name: Article
//	    dynamic: strict
//	    type_hints: true
//	    dynamic_templates_path: article-templates.json
//	    mapping:
//	      date_detection: false
//	      dynamic_date_formats: ["yyyy-MM-dd"]
//	      runtime_fields_path: article-runtime.json
//	    properties:
//	      - name: id
//	        id: true
//	        field: { type: keyword }
//	      - name: title
//	        multi_field:
//	          main: { type: text, analyzer: english }
//	          fields:
//	            - suffix: raw
//	              type: keyword
//	      - name: location
//	        geo_point: true
//	      - name: suggest
//	        completion:
//	          analyzer: simple
//	          contexts:
//	            - name: place
//	              type: geo
//	              precision: 6
//	      - name: author
//	        entity: Author
//	        field: { type: object }
//	  - name: Author
//	    properties:
//	      - name: name
//	        field: { type: text }
//
// # Defaults
//
// Loading applies the engine defaults the compiler relies on: field type
// auto, dynamic mode inherit, completion max_input_length 50 with both
// preserve flags true, geo-shape orientation ccw with ignore_z_value true,
// and index_prefixes bounds 2..5.
package schema
