package db

// Catalog tables are populated by the bulk loader and only read by the chat core.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    email TEXT,
    age INTEGER,
    gender TEXT,
    state TEXT,
    street_address TEXT,
    postal_code TEXT,
    city TEXT,
    country TEXT,
    latitude REAL,
    longitude REAL,
    traffic_source TEXT,
    created_at TEXT
);

CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY,
    cost REAL,
    category TEXT,
    name TEXT,
    brand TEXT,
    retail_price REAL,
    department TEXT,
    sku TEXT,
    distribution_center_id INTEGER
);

CREATE TABLE IF NOT EXISTS distribution_centers (
    id INTEGER PRIMARY KEY,
    name TEXT,
    latitude REAL,
    longitude REAL
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id INTEGER PRIMARY KEY,
    product_id INTEGER,
    created_at TEXT,
    sold_at TEXT,
    cost REAL,
    product_category TEXT,
    product_name TEXT,
    product_brand TEXT,
    product_retail_price REAL,
    product_department TEXT,
    product_sku TEXT,
    product_distribution_center_id INTEGER
);

CREATE TABLE IF NOT EXISTS orders (
    order_id INTEGER PRIMARY KEY,
    user_id INTEGER,
    status TEXT,
    gender TEXT,
    created_at TEXT,
    returned_at TEXT,
    shipped_at TEXT,
    delivered_at TEXT,
    num_of_item INTEGER
);

CREATE TABLE IF NOT EXISTS order_items (
    id INTEGER PRIMARY KEY,
    order_id INTEGER,
    user_id INTEGER,
    product_id INTEGER,
    inventory_item_id INTEGER,
    status TEXT,
    created_at TEXT,
    shipped_at TEXT,
    delivered_at TEXT,
    returned_at TEXT,
    sale_price REAL
);

CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (conversation_id) REFERENCES conversations(id)
);

CREATE INDEX IF NOT EXISTS idx_conversations_user_session ON conversations(user_id, session_id);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGINT PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    email TEXT,
    age INTEGER,
    gender TEXT,
    state TEXT,
    street_address TEXT,
    postal_code TEXT,
    city TEXT,
    country TEXT,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    traffic_source TEXT,
    created_at TEXT
);

CREATE TABLE IF NOT EXISTS products (
    id BIGINT PRIMARY KEY,
    cost DOUBLE PRECISION,
    category TEXT,
    name TEXT,
    brand TEXT,
    retail_price DOUBLE PRECISION,
    department TEXT,
    sku TEXT,
    distribution_center_id BIGINT
);

CREATE TABLE IF NOT EXISTS distribution_centers (
    id BIGINT PRIMARY KEY,
    name TEXT,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id BIGINT PRIMARY KEY,
    product_id BIGINT,
    created_at TEXT,
    sold_at TEXT,
    cost DOUBLE PRECISION,
    product_category TEXT,
    product_name TEXT,
    product_brand TEXT,
    product_retail_price DOUBLE PRECISION,
    product_department TEXT,
    product_sku TEXT,
    product_distribution_center_id BIGINT
);

CREATE TABLE IF NOT EXISTS orders (
    order_id BIGINT PRIMARY KEY,
    user_id BIGINT,
    status TEXT,
    gender TEXT,
    created_at TEXT,
    returned_at TEXT,
    shipped_at TEXT,
    delivered_at TEXT,
    num_of_item INTEGER
);

CREATE TABLE IF NOT EXISTS order_items (
    id BIGINT PRIMARY KEY,
    order_id BIGINT,
    user_id BIGINT,
    product_id BIGINT,
    inventory_item_id BIGINT,
    status TEXT,
    created_at TEXT,
    shipped_at TEXT,
    delivered_at TEXT,
    returned_at TEXT,
    sale_price DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS conversations (
    id BIGSERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id BIGSERIAL PRIMARY KEY,
    conversation_id BIGINT NOT NULL REFERENCES conversations(id),
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_user_session ON conversations(user_id, session_id);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);`

// CatalogColumns lists the loadable columns of each catalog table, in CSV header order.
var CatalogColumns = map[string][]string{
	"distribution_centers": {"id", "name", "latitude", "longitude"},
	"users": {
		"id", "first_name", "last_name", "email", "age", "gender", "state", "street_address",
		"postal_code", "city", "country", "latitude", "longitude", "traffic_source", "created_at",
	},
	"products": {
		"id", "cost", "category", "name", "brand", "retail_price",
		"department", "sku", "distribution_center_id",
	},
	"inventory_items": {
		"id", "product_id", "created_at", "sold_at", "cost",
		"product_category", "product_name", "product_brand", "product_retail_price",
		"product_department", "product_sku", "product_distribution_center_id",
	},
	"orders": {
		"order_id", "user_id", "status", "gender", "created_at", "returned_at",
		"shipped_at", "delivered_at", "num_of_item",
	},
	"order_items": {
		"id", "order_id", "user_id", "product_id", "inventory_item_id", "status",
		"created_at", "shipped_at", "delivered_at", "returned_at", "sale_price",
	},
}
